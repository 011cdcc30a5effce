package matcher

// Row is one reference drug record from a dataset source.
//
// Generic is the sole matching key. Brand and Batch travel with the row for
// display and audit but never influence matching. A row whose Generic
// normalizes to the empty string is inert and can never match.
type Row struct {
	Brand    string
	Generic  string
	IsBanned bool
	Batch    string
}
