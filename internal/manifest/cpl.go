package manifest

import (
	"encoding/xml"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"cinepress/internal/services"
	"cinepress/internal/signing"
)

// Asset is one reel asset referenced by the composition playlist.
type Asset struct {
	ID       string `xml:"Id"`
	Kind     string `xml:"Kind"`
	Path     string `xml:"Path"`
	Frames   int64  `xml:"IntrinsicDuration"`
	Size     int64  `xml:"Size"`
	Hash     string `xml:"Hash,omitempty"`
	External bool   `xml:"External,attr,omitempty"`
}

// Reel is one chapter of the composition.
type Reel struct {
	ID     string  `xml:"Id"`
	Assets []Asset `xml:"AssetList>Asset"`
}

// Rating is one agency rating.
type Rating struct {
	Agency string `xml:"Agency"`
	Label  string `xml:"Label"`
}

// Area is a picture area in pixels.
type Area struct {
	Width  int `xml:"Width"`
	Height int `xml:"Height"`
}

// Signature is the detached signature embedded in the serialized document.
type Signature struct {
	Algorithm  string `xml:"Algorithm"`
	Value      string `xml:"Value"`
	Thumbprint string `xml:"Thumbprint"`
	SignerName string `xml:"SignerName"`
}

// CPL is the composition playlist.
type CPL struct {
	XMLName xml.Name `xml:"CompositionPlaylist"`

	ID             string `xml:"Id"`
	IssueDate      string `xml:"IssueDate"`
	Issuer         string `xml:"Issuer"`
	Creator        string `xml:"Creator"`
	Standard       string `xml:"Standard"`
	AnnotationText string `xml:"AnnotationText"`

	ContentTitleText     string   `xml:"ContentTitleText"`
	ContentTitleLanguage string   `xml:"ContentTitleLanguage,omitempty"`
	ContentKind          string   `xml:"ContentKind"`
	ContentVersions      []string `xml:"ContentVersionList>ContentVersion"`
	Ratings              []Rating `xml:"RatingList>Rating"`

	MainSoundConfiguration string `xml:"MainSoundConfiguration"`
	MainSoundSampleRate    int    `xml:"MainSoundSampleRate"`

	MainPictureStoredArea Area  `xml:"MainPictureStoredArea"`
	MainPictureActiveArea *Area `xml:"MainPictureActiveArea,omitempty"`

	ReleaseTerritory            string   `xml:"ReleaseTerritory,omitempty"`
	VersionNumber               int      `xml:"VersionNumber,omitempty"`
	Status                      string   `xml:"Status,omitempty"`
	Chain                       string   `xml:"Chain,omitempty"`
	Distributor                 string   `xml:"Distributor,omitempty"`
	Facility                    string   `xml:"Facility,omitempty"`
	Luminance                   string   `xml:"Luminance,omitempty"`
	SignLanguageVideoLanguage   string   `xml:"SignLanguageVideoLanguage,omitempty"`
	AdditionalSubtitleLanguages []string `xml:"AdditionalSubtitleLanguageList>Language,omitempty"`

	Reels []Reel `xml:"ReelList>Reel"`

	Signature *Signature `xml:"Signature,omitempty"`
}

// New constructs an empty CPL with a fresh identifier and issue date.
func New(title, kind, standard string) *CPL {
	return &CPL{
		ID:               "urn:uuid:" + uuid.NewString(),
		IssueDate:        time.Now().UTC().Format(time.RFC3339),
		Standard:         standard,
		AnnotationText:   title,
		ContentTitleText: title,
		ContentKind:      kind,
	}
}

// Filename returns the on-disk name of the serialized playlist.
func (c *CPL) Filename() string {
	return "cpl_" + c.ID[len("urn:uuid:"):] + ".xml"
}

// Serialize marshals the playlist, excluding any signature element.
func (c *CPL) Serialize() ([]byte, error) {
	clone := *c
	clone.Signature = nil
	body, err := xml.MarshalIndent(&clone, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal cpl: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}

// WriteSigned signs the serialized playlist and writes it to dir, returning
// the written path.
func (c *CPL) WriteSigned(dir string, signer *signing.Signer) (string, error) {
	body, err := c.Serialize()
	if err != nil {
		return "", err
	}
	sig, err := signer.Sign(body)
	if err != nil {
		return "", err
	}
	c.Signature = &Signature{
		Algorithm:  sig.Algorithm,
		Value:      sig.Value,
		Thumbprint: sig.Thumbprint,
		SignerName: sig.SignerName,
	}
	signed, err := xml.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal signed cpl: %w", err)
	}
	out := append([]byte(xml.Header), signed...)
	out = append(out, '\n')

	path := dir + string(os.PathSeparator) + c.Filename()
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return "", services.Wrap(services.ErrIO, "manifest", "write cpl", path, err)
	}
	return path, nil
}
