package models

// NotebookDocument is the structured content stored in a NotebookRecord.
// The shape follows the notebook cell format the frontend renders:
// a list of markdown cells plus kernel metadata tagging the document kind.
type NotebookDocument struct {
	Cells    []NotebookCell   `json:"cells"`
	Metadata NotebookMetadata `json:"metadata"`
}

// NotebookCell is a single cell of a notebook document.
type NotebookCell struct {
	CellType string   `json:"cell_type"`
	Source   []string `json:"source"`
}

// NotebookMetadata carries the kernelspec that marks a notebook as a
// transcription document.
type NotebookMetadata struct {
	Kernelspec NotebookKernelspec `json:"kernelspec"`
}

// NotebookKernelspec identifies the pseudo-kernel for generated notebooks.
type NotebookKernelspec struct {
	DisplayName string `json:"display_name"`
	Language    string `json:"language"`
	Name        string `json:"name"`
}
