package domain

// ErrorKind classifies which entity a rejected row points at.
type ErrorKind string

const (
	KindKeyword     ErrorKind = "keyword"
	KindHeadline    ErrorKind = "headline"
	KindDescription ErrorKind = "description"
	KindAd          ErrorKind = "ad"
	KindCampaign    ErrorKind = "campaign"
	KindAdGroup     ErrorKind = "ad_group"
	KindOther       ErrorKind = "other"
)

// ParsedError is one rejected entity extracted from an upload-results file.
// Immutable once produced.
type ParsedError struct {
	Kind          ErrorKind `json:"type"`
	Value         string    `json:"value"`
	Reason        string    `json:"reason"`
	OriginalError string    `json:"original_error"`
	RowType       string    `json:"row_type"`
}

// ParseReport is the full outcome of parsing one results file.
// Errors preserves file order; the per-kind slices are derived partitions of it.
type ParseReport struct {
	Errors       []ParsedError `json:"errors"`
	TotalRows    int           `json:"total_rows"`
	ErrorRows    int           `json:"error_rows"`
	SuccessRows  int           `json:"success_rows"`
	Filename     string        `json:"filename"`
	Keywords     []ParsedError `json:"keywords"`
	Headlines    []ParsedError `json:"headlines"`
	Descriptions []ParsedError `json:"descriptions"`
	OtherErrors  []ParsedError `json:"other_errors"`
}

// Partition fills the per-kind slices from Errors. Every error lands in
// exactly one partition, so their lengths always sum to len(Errors).
func (r *ParseReport) Partition() {
	r.Keywords = r.Keywords[:0]
	r.Headlines = r.Headlines[:0]
	r.Descriptions = r.Descriptions[:0]
	r.OtherErrors = r.OtherErrors[:0]

	for _, e := range r.Errors {
		switch e.Kind {
		case KindKeyword:
			r.Keywords = append(r.Keywords, e)
		case KindHeadline:
			r.Headlines = append(r.Headlines, e)
		case KindDescription:
			r.Descriptions = append(r.Descriptions, e)
		default:
			r.OtherErrors = append(r.OtherErrors, e)
		}
	}
}
