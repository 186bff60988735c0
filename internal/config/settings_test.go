package config

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/handiism/addprompt/internal/model"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(DefaultSettings(), s); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_YAMLKeepsDefaultsForUnsetFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := "force: true\npreset: plain\nmax_concurrent_folders: 4\nfont_dirs:\n  - /opt/fonts\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := DefaultSettings()
	want.Force = true
	want.Preset = model.PresetPlain
	want.MaxConcurrentFolders = 4
	want.FontDirs = []string{"/opt/fonts"}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{force: "), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() should fail on malformed JSON")
	}
}

func TestSave_RoundTrip(t *testing.T) {
	trim := 0
	s := DefaultSettings()
	s.ContinueOnError = true
	s.HyphenationDictionary = "/tmp/hyph_es.dic"
	s.Styles = map[string]*StyleSettings{
		"short": {Base: model.PresetDeeplili, TrimSuffix: &trim},
	}

	for _, name := range []string{"config.json", "config.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			if err := s.Save(path); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if diff := cmp.Diff(s, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSettings_ToFolderConfig(t *testing.T) {
	s := DefaultSettings()
	s.OutputFileName = "captioned.jpg"

	f := model.NewFolder("/data/item", s.ToFolderConfig())
	if f.OutputPath != filepath.Join("/data/item", "captioned.jpg") {
		t.Errorf("OutputPath = %q", f.OutputPath)
	}
	if f.ImagePath != filepath.Join("/data/item", "image.png") {
		t.Errorf("ImagePath = %q", f.ImagePath)
	}
}

func TestSettings_ToStyle(t *testing.T) {
	x := 20
	noQuote := false
	s := DefaultSettings()
	s.Styles = map[string]*StyleSettings{
		"night": {
			Background: "#101020",
			Caption: &TextStyleSettings{
				Color: "#ffffff80",
				Align: "left",
				X:     &x,
			},
			Watermark: &WatermarkSettings{Disabled: true},
			Quote:     &noQuote,
		},
		"branded": {
			Base: model.PresetPlain,
			Watermark: &WatermarkSettings{
				Text:              "example.org",
				TextStyleSettings: TextStyleSettings{Color: "#f97300"},
			},
		},
		"broken": {Background: "brown"},
	}

	night, err := s.ToStyle("night")
	if err != nil {
		t.Fatalf("ToStyle(night) error = %v", err)
	}
	if night.Name != "night" {
		t.Errorf("Name = %q", night.Name)
	}
	if night.Background != (color.NRGBA{R: 0x10, G: 0x10, B: 0x20, A: 0xff}) {
		t.Errorf("Background = %v", night.Background)
	}
	if night.Caption.Color != (color.NRGBA{R: 255, G: 255, B: 255, A: 0x80}) {
		t.Errorf("Caption.Color = %v", night.Caption.Color)
	}
	if night.Caption.Origin != image.Pt(20, 10) {
		t.Errorf("Caption.Origin = %v, want (20,10)", night.Caption.Origin)
	}
	if night.Caption.Align != model.AlignLeft || night.Watermark != nil || night.Quote {
		t.Errorf("overrides not applied: %+v", night)
	}
	if night.WrapWidth != 39 || night.TrimSuffix != 10 {
		t.Errorf("unset fields should keep deeplili values, got wrap %d trim %d", night.WrapWidth, night.TrimSuffix)
	}

	branded, err := s.ToStyle("branded")
	if err != nil {
		t.Fatalf("ToStyle(branded) error = %v", err)
	}
	if branded.Watermark == nil || branded.Watermark.Text != "example.org" {
		t.Fatalf("Watermark = %+v", branded.Watermark)
	}
	if branded.Watermark.Style.Color != model.Orange {
		t.Errorf("Watermark color = %v", branded.Watermark.Style.Color)
	}
	if branded.Background != model.TransparentWhite {
		t.Errorf("Background = %v, want plain background", branded.Background)
	}

	if _, err := s.ToStyle("broken"); err == nil {
		t.Error("ToStyle(broken) should fail on a named color")
	}
	if _, err := s.ToStyle("missing"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("ToStyle(missing) error = %v, want ErrUnknownPreset", err)
	}

	def, err := s.ToStyle("")
	if err != nil || def.Name != model.PresetDeeplili {
		t.Errorf("ToStyle(\"\") = %q, %v; want the deeplili preset", def.Name, err)
	}
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"defaults", func(*Settings) {}, false},
		{"zero workers", func(s *Settings) { s.MaxConcurrentFolders = 0 }, true},
		{"zero ratio", func(s *Settings) { s.BandRatio = 0 }, true},
		{"unknown preset", func(s *Settings) { s.Preset = "fancy" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(s)
			if err := s.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSettings_PresetNames(t *testing.T) {
	s := DefaultSettings()
	s.Styles = map[string]*StyleSettings{"zeta": {}, "alpha": {}, "plain": {}}

	want := []string{"deeplili", "plain", "alpha", "zeta"}
	if diff := cmp.Diff(want, s.PresetNames()); diff != "" {
		t.Errorf("PresetNames() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{"#32012f", color.NRGBA{R: 50, G: 1, B: 47, A: 255}, false},
		{"#f97300", model.Orange, false},
		{"#ffffff00", model.TransparentWhite, false},
		{"#fff", color.NRGBA{R: 255, G: 255, B: 255, A: 255}, false},
		{"#ffffffzz", color.NRGBA{}, true},
		{"brown", color.NRGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseColor() = %v, want %v", got, tt.want)
			}
		})
	}

	for _, c := range []color.NRGBA{model.Brown, model.LightWhite, model.TransparentWhite} {
		back, err := ParseColor(FormatColor(c))
		if err != nil || back != c {
			t.Errorf("FormatColor(%v) = %q does not parse back", c, FormatColor(c))
		}
	}
}
