package listing

// Row represents one upcoming listing as shown on the source page.
// Field order here is the field order in the written snapshot.
type Row struct {
	Date     string  `json:"date"` // dd/mm/yyyy
	Company  string  `json:"company"`
	Ticker   string  `json:"ticker"`
	ISIN     string  `json:"isin"`
	Location string  `json:"location"`
	Market   string  `json:"market"`
	URL      *string `json:"url"` // nil when the row has no link
}

// CellCount is the number of leading cells that map onto a Row.
const CellCount = 6

// NewRow builds a Row from the first CellCount cells.
// Cells beyond CellCount are ignored. It reports false if there are too few cells.
func NewRow(cells []string, url *string) (Row, bool) {
	if len(cells) < CellCount {
		return Row{}, false
	}
	return Row{
		Date:     cells[0],
		Company:  cells[1],
		Ticker:   cells[2],
		ISIN:     cells[3],
		Location: cells[4],
		Market:   cells[5],
		URL:      url,
	}, true
}

// Snapshot is the artifact persisted once per run.
type Snapshot struct {
	Source      string `json:"source"`
	GeneratedAt string `json:"generated_at"`
	Items       []Row  `json:"items"`
}

// NewSnapshot creates a snapshot for the given rows. A nil slice is written as [].
func NewSnapshot(source, generatedAt string, items []Row) *Snapshot {
	if items == nil {
		items = []Row{}
	}
	return &Snapshot{
		Source:      source,
		GeneratedAt: generatedAt,
		Items:       items,
	}
}
