package sheet

import (
	"strings"
	"testing"
)

func TestParseRecordsHeaderPermutations(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"canonical", "mouse_id,remark,date_added\nM001,strain A,2026-08-29\n"},
		{"reordered", "remark,date_added,mouse_id\nstrain A,2026-08-29,M001\n"},
		{"date alias", "mouse_id,remark,date\nM001,strain A,2026-08-29\n"},
		{"extra columns", "mouse_id,left_photo,remark,right_photo,date_added\nM001,a.jpg,strain A,b.jpg,2026-08-29\n"},
		{"mixed case header", "Mouse_ID,Remark,Date_Added\nM001,strain A,2026-08-29\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			records, err := parseRecords(strings.NewReader(tc.body))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if len(records) != 1 {
				t.Fatalf("got %d records", len(records))
			}
			rec := records[0]
			if rec.MouseID != "M001" || rec.Remark != "strain A" || rec.DateAdded != "2026-08-29" {
				t.Fatalf("unexpected record %+v", rec)
			}
		})
	}
}

func TestParseRecordsCoercion(t *testing.T) {
	body := "mouse_id,remark\nM001,no date column\n,skipped blank id\nM002,\n"
	records, err := parseRecords(strings.NewReader(body))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].DateAdded != "" || records[1].Remark != "" {
		t.Fatalf("missing columns not coerced to blank: %+v", records)
	}
}

func TestParseRecordsRaggedRows(t *testing.T) {
	body := "mouse_id,remark,date_added\nM001\nM002,short row\n"
	records, err := parseRecords(strings.NewReader(body))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(records) != 2 || records[0].Remark != "" || records[1].Remark != "short row" {
		t.Fatalf("ragged rows mishandled: %+v", records)
	}
}

func TestParseRecordsEmptyAndMissingID(t *testing.T) {
	if records, err := parseRecords(strings.NewReader("")); err != nil || records != nil {
		t.Fatalf("empty body: %v %v", records, err)
	}
	if _, err := parseRecords(strings.NewReader("remark,date_added\nx,y\n")); err == nil {
		t.Fatalf("expected error for missing mouse_id column")
	}
}

func TestEncodeParseRoundTrip(t *testing.T) {
	body := "mouse_id,remark,date_added\nM001,\"remark, with comma\",2026-08-29\n"
	records, err := parseRecords(strings.NewReader(body))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	encoded, err := encodeRecords(records)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	again, err := parseRecords(strings.NewReader(string(encoded)))
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if len(again) != 1 || again[0].Remark != "remark, with comma" {
		t.Fatalf("quoting lost in round trip: %+v", again)
	}
}
