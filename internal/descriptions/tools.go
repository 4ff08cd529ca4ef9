package descriptions

// Tool descriptions with practical examples and use cases

const (
	RollExtractFileDescription = `Extract the voter records of a fixed-layout electoral roll PDF.

**When to use:** Need the rows of a roll (name, national identity number, sex, address, circumscription, place) as structured data.

**What you get:** A JSON object with a "summary" (path, output name derived from the header, pages read, record count) and a "records" list in page then row order. Fields that were blank on the page are empty strings.

**Examples:**
• Whole roll: "Extract every voter from /rolls/lima-01.pdf"
• A few pages: "Extract pages 2 to 4 of roll.pdf" → start=2, end=4

**Notes:** Pages are numbered from 1. A start past the last page returns an empty list, and an end past the last page reads to the end.`

	RollReadHeaderDescription = `Read the region, province and area printed at the top of the first page of a roll.

**When to use:** Identify a roll before extracting it, or preview the file name a delimited run would write.

**What you get:** The three header values ("(not found)" when blank), whether the header is complete, and the output name. An incomplete header means the output is named after the source file instead.`

	RollListDirectoryDescription = `List the roll PDFs directly inside a directory, in the order a directory run processes them.

**When to use:** Discover which rolls are available before extracting them one by one.

**What you get:** Name, full path, size and modification time of each file whose extension is .pdf in any letter case. Subdirectories are not searched.

**Notes:** Without a directory argument the configured --dir (or the working directory) is listed.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"roll_extract_file":   RollExtractFileDescription,
	"roll_read_header":    RollReadHeaderDescription,
	"roll_list_directory": RollListDirectoryDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}
