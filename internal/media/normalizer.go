package media

import "fmt"

// Promptable is the canonical, self-contained form of a media payload that the
// model layer consumes. It carries everything needed to embed the media in a
// prompt without touching the raw payload again.
type Promptable struct {
	MimeType string
	Data     string // base64, as received
}

// ToPromptable converts a payload into its promptable form. It performs no
// validation: callers are expected to have run Validate first, which lets the
// combiner validate-then-normalize in one place and lets already-trusted data
// (e.g. replayed from storage) skip the check.
func ToPromptable(p Payload) Promptable {
	return Promptable{MimeType: p.MimeType, Data: p.Content}
}

// DataURI renders the promptable as an RFC 2397 data URI.
func (p Promptable) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", p.MimeType, p.Data)
}
