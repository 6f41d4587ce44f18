package domain

// Submission statuses. Denial currently deletes the record outright, so
// StatusRejected never appears in the database; it stays in the enum so a
// soft-reject migration remains possible.
type SubmissionStatus string

const (
	StatusPending  SubmissionStatus = "pending"
	StatusApproved SubmissionStatus = "approved"
	StatusRejected SubmissionStatus = "rejected"
)

// Pricing is either a fixed asking price or a quote request, never both.
type Pricing struct {
	amount float64
	quote  bool
}

func Priced(amount float64) Pricing { return Pricing{amount: amount} }
func QuoteRequested() Pricing       { return Pricing{quote: true} }

// Amount returns the asking price; ok is false when a quote was requested.
func (p Pricing) Amount() (float64, bool) { return p.amount, !p.quote }
func (p Pricing) IsQuote() bool           { return p.quote }

// Submission is a seller-initiated used-item listing awaiting review.
type Submission struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Condition   Condition        `json:"condition"`
	Images      []string         `json:"images"`
	Pricing     Pricing          `json:"-"`
	Brand       string           `json:"brand,omitempty"`
	Seller      SellerContact    `json:"sellerInfo"`
	Status      SubmissionStatus `json:"status"`
	AdminNotes  string           `json:"adminNotes,omitempty"`
	CreatedAt   string           `json:"createdAt"`
}

// SubmissionView is the JSON shape handed back to clients; it flattens the
// pricing union into the askingPrice/requestQuote pair the admin UI expects.
type SubmissionView struct {
	Submission
	AskingPrice  *float64 `json:"askingPrice,omitempty"`
	RequestQuote bool     `json:"requestQuote"`
}

func (s Submission) View() SubmissionView {
	v := SubmissionView{Submission: s}
	if amt, ok := s.Pricing.Amount(); ok {
		v.AskingPrice = &amt
	} else {
		v.RequestQuote = true
	}
	return v
}
