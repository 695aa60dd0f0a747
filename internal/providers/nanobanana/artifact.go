package nanobanana

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ArtifactKind discriminates the two representations the vendor uses for a
// generated image.
type ArtifactKind int

const (
	// ArtifactKindURL is a hosted image reachable over http(s).
	ArtifactKindURL ArtifactKind = iota + 1
	// ArtifactKindInline is image bytes delivered inside the response.
	ArtifactKindInline
)

const defaultInlineMIME = "image/png"

// ErrUnrecognizedArtifact indicates a payload that is neither a URL nor
// decodable inline data.
var ErrUnrecognizedArtifact = errors.New("nanobanana: unrecognized artifact payload")

// Artifact is a tagged variant over the vendor's image payload. Exactly one
// of URL or Data is populated, selected by Kind, so downstream code never
// has to sniff string prefixes.
type Artifact struct {
	Kind ArtifactKind
	URL  string
	MIME string
	Data []byte
}

// ParseArtifact classifies a raw artifact string from a completed task.
// The vendor returns either a hosted URL, a data URI, or bare base64.
func ParseArtifact(raw string) (Artifact, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Artifact{}, fmt.Errorf("%w: empty payload", ErrUnrecognizedArtifact)
	}

	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		if _, err := url.Parse(raw); err != nil {
			return Artifact{}, fmt.Errorf("%w: %v", ErrUnrecognizedArtifact, err)
		}
		return Artifact{Kind: ArtifactKindURL, URL: raw}, nil
	}

	if strings.HasPrefix(raw, "data:") {
		mime, data, err := parseDataURI(raw)
		if err != nil {
			return Artifact{}, err
		}
		return Artifact{Kind: ArtifactKindInline, MIME: mime, Data: data}, nil
	}

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return Artifact{}, fmt.Errorf("%w: %v", ErrUnrecognizedArtifact, err)
	}
	return Artifact{Kind: ArtifactKindInline, MIME: defaultInlineMIME, Data: data}, nil
}

// Encode renders the artifact back into its wire form for the client: the
// hosted URL as-is, or inline bytes as a data URI.
func (a Artifact) Encode() string {
	switch a.Kind {
	case ArtifactKindURL:
		return a.URL
	case ArtifactKindInline:
		mime := a.MIME
		if mime == "" {
			mime = defaultInlineMIME
		}
		return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(a.Data)
	default:
		return ""
	}
}

func parseDataURI(raw string) (mime string, data []byte, err error) {
	rest := strings.TrimPrefix(raw, "data:")
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: malformed data uri", ErrUnrecognizedArtifact)
	}
	mime = defaultInlineMIME
	base64Encoded := false
	for i, part := range strings.Split(meta, ";") {
		switch {
		case part == "base64":
			base64Encoded = true
		case i == 0 && part != "":
			mime = part
		}
	}
	if !base64Encoded {
		return "", nil, fmt.Errorf("%w: data uri is not base64 encoded", ErrUnrecognizedArtifact)
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrUnrecognizedArtifact, err)
	}
	return mime, data, nil
}
