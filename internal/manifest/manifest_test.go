package manifest_test

import (
	"os"
	"strings"
	"testing"

	"cinepress/internal/manifest"
	"cinepress/internal/signing"
)

func TestSoundField(t *testing.T) {
	cases := []struct {
		channels int
		want     string
	}{
		{2, manifest.FieldStereo},
		{6, manifest.FieldFivePointOne},
		{5, manifest.FieldFivePointOne},
		{8, manifest.FieldSevenPointOne},
		{16, manifest.FieldSevenPointOne},
	}
	for _, tc := range cases {
		if got := manifest.SoundField(tc.channels); got != tc.want {
			t.Fatalf("SoundField(%d): got %q want %q", tc.channels, got, tc.want)
		}
	}
}

func TestMainSoundConfiguration(t *testing.T) {
	got := manifest.MainSoundConfiguration(6, []int{0, 1, 2, 3, 4, 5})
	if got != "51/L,R,C,LFE,Ls,Rs" {
		t.Fatalf("unexpected configuration: %q", got)
	}

	// Out-of-range mappings are ignored and unmapped channels dashed.
	got = manifest.MainSoundConfiguration(2, []int{0, 5})
	if got != "ST/L,-" {
		t.Fatalf("unexpected configuration: %q", got)
	}
}

func TestWriteSignedEmbedsVerifiableSignature(t *testing.T) {
	cpl := manifest.New("Example Feature", "feature", "smpte")
	cpl.ContentVersions = []string{"1"}
	cpl.MainSoundConfiguration = manifest.MainSoundConfiguration(6, []int{0, 1, 2, 3, 4, 5})
	cpl.MainSoundSampleRate = 48000
	cpl.MainPictureStoredArea = manifest.Area{Width: 1998, Height: 1080}
	cpl.Reels = []manifest.Reel{{
		ID: "urn:uuid:reel",
		Assets: []manifest.Asset{
			{ID: "urn:uuid:pic", Kind: "picture", Frames: 240, Hash: "abc"},
		},
	}}

	signer, err := signing.GenerateSelfSigned("test signer")
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	path, err := cpl.WriteSigned(dir, signer)
	if err != nil {
		t.Fatalf("WriteSigned: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	doc := string(raw)
	for _, want := range []string{
		"<ContentTitleText>Example Feature</ContentTitleText>",
		"<MainSoundConfiguration>51/L,R,C,LFE,Ls,Rs</MainSoundConfiguration>",
		"<Signature>",
		"<SignerName>test signer</SignerName>",
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("missing %q in:\n%s", want, doc)
		}
	}

	// The signature must verify against the unsigned serialization.
	body, err := cpl.Serialize()
	if err != nil {
		t.Fatal(err)
	}
	if err := signer.Verify(body, signing.Signature{Value: cpl.Signature.Value}); err != nil {
		t.Fatalf("signature does not verify: %v", err)
	}
}
