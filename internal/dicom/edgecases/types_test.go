package edgecases

import (
	"testing"
)

func TestParseTypes(t *testing.T) {
	tests := []struct {
		input   string
		want    []EdgeCaseType
		wantErr bool
	}{
		{input: "", want: nil},
		{input: "special-chars, long-names", want: []EdgeCaseType{SpecialChars, LongNames}},
		{input: "roi-spellings,roi-spellings", want: []EdgeCaseType{ROISpellings}},
		{input: "varied-ids,all", want: AllEdgeCaseTypes()},
		{input: "invalid-type", wantErr: true},
		// Image-header cases have no meaning for RT objects.
		{input: "old-dates", wantErr: true},
		{input: "missing-tags", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseTypes(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTypes(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("ParseTypes(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ParseTypes(%q) = %v, want %v", tt.input, got, tt.want)
			}
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"valid", Config{Percentage: 50, Types: []EdgeCaseType{SpecialChars}}, false},
		{"zero percent", Config{Percentage: 0}, false},
		{"negative percent", Config{Percentage: -1, Types: []EdgeCaseType{SpecialChars}}, true},
		{"over 100 percent", Config{Percentage: 101, Types: []EdgeCaseType{SpecialChars}}, true},
		{"percent without types", Config{Percentage: 50}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_IsEnabledAndHasType(t *testing.T) {
	c := Config{Percentage: 50, Types: []EdgeCaseType{UnlabelledMarkers}}
	if !c.IsEnabled() || !c.HasType(UnlabelledMarkers) || c.HasType(SpecialChars) {
		t.Errorf("config %+v misreports its types", c)
	}
	if (&Config{Percentage: 0, Types: c.Types}).IsEnabled() {
		t.Error("0% should not be enabled")
	}
	if (&Config{Percentage: 50}).IsEnabled() {
		t.Error("no types should not be enabled")
	}
}
