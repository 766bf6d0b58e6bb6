package entity

// ReceiptHeader holds the store block printed at the top of a receipt. Empty
// fields are hidden or absent and must not be printed.
type ReceiptHeader struct {
	StoreName string `json:"store_name,omitempty"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Message   string `json:"message,omitempty"`
}

// ReceiptLine is a formatted line item.
type ReceiptLine struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Total     string `json:"total"`
}

// ReceiptLabels are the template captions, only filled for visible blocks.
type ReceiptLabels struct {
	Customer  string `json:"customer,omitempty"`
	Date      string `json:"date,omitempty"`
	Time      string `json:"time,omitempty"`
	Item      string `json:"item,omitempty"`
	Qty       string `json:"qty,omitempty"`
	Price     string `json:"price,omitempty"`
	Total     string `json:"total"`
	ItemCount string `json:"item_count,omitempty"`
}

// Receipt is a value object with every template gate already applied and
// every amount already formatted. It is NOT persisted; both the HTML and the
// ESC/POS renderers consume it.
type Receipt struct {
	Title        string        `json:"title,omitempty"`
	Header       ReceiptHeader `json:"header"`
	InvoiceNo    string        `json:"invoice_no,omitempty"`
	Date         string        `json:"date,omitempty"`
	Time         string        `json:"time,omitempty"`
	Customer     string        `json:"customer,omitempty"`
	Labels       ReceiptLabels `json:"labels"`
	TableHeaders bool          `json:"table_headers"`
	Tabular      bool          `json:"tabular"`
	Items        []ReceiptLine `json:"items"`
	ItemCount    string        `json:"item_count,omitempty"`
	Total        string        `json:"total"`
	Footer       string        `json:"footer,omitempty"`
	PaperWidth   int           `json:"-"`
}
