package validation

import (
	"strings"
	"testing"
)

type record struct {
	Name      string   `yaml:"name" validate:"notblank"`
	District  string   `yaml:"district,omitempty" validate:"omitempty,max=8"`
	Lat       *float64 `yaml:"lat" validate:"omitempty,min=-90,max=90"`
	Materials []string `validate:"dive,notblank"`
}

func ptr(f float64) *float64 { return &f }

func TestStruct(t *testing.T) {
	tests := []struct {
		name    string
		rec     record
		wantErr []string
	}{
		{name: "valid", rec: record{Name: "Keeladi", Lat: ptr(9.86), Materials: []string{"Iron"}}},
		{name: "missing coordinates allowed", rec: record{Name: "Keeladi"}},
		{name: "blank name", rec: record{Name: "   "}, wantErr: []string{"record.name: must not be blank"}},
		{name: "latitude out of range", rec: record{Name: "x", Lat: ptr(123)}, wantErr: []string{"record.lat: must not exceed 90"}},
		{name: "district too long", rec: record{Name: "x", District: "Sivaganga-North"}, wantErr: []string{"record.district: must be at most 8 characters"}},
		{name: "untagged field keeps Go name", rec: record{Name: "x", Materials: []string{"Gold", ""}}, wantErr: []string{"record.Materials[1]"}},
		{name: "every failure reported", rec: record{Name: "", Lat: ptr(-91)}, wantErr: []string{"record.name", "record.lat: must be at least -90"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(&tt.rec)
			if len(tt.wantErr) == 0 {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected an error containing %q", tt.wantErr)
			}
			for _, want := range tt.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("expected %q in %v", want, err)
				}
			}
		})
	}
}

func TestStructNil(t *testing.T) {
	if err := Struct(nil); err == nil {
		t.Error("expected error for nil value")
	}
}
