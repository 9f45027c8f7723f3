package models

// ImportResult is the outcome of a blocked keyword import.
type ImportResult int

const (
	ImportFail ImportResult = iota
	ImportOK
)

func (r ImportResult) String() string {
	switch r {
	case ImportOK:
		return "ok"
	case ImportFail:
		return "fail"
	}
	return "unknown"
}

// Message returns the user-facing text for the result.
func (r ImportResult) Message() string {
	if r == ImportOK {
		return "Importing successful"
	}
	return "No items found"
}

// ExportResult is the outcome of a blocked keyword export.
type ExportResult int

const (
	ExportFail ExportResult = iota
	ExportOK
)

func (r ExportResult) String() string {
	switch r {
	case ExportOK:
		return "ok"
	case ExportFail:
		return "fail"
	}
	return "unknown"
}

// Message returns the user-facing text for the result.
func (r ExportResult) Message() string {
	if r == ExportOK {
		return "Exporting successful"
	}
	return "Exporting failed"
}

// NoEntriesForExportingMessage is shown when there is nothing to export.
const NoEntriesForExportingMessage = "No entries for exporting"
