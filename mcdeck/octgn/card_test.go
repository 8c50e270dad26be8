package octgn

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

const testCardID = "22222222-2222-2222-2222-222222222222"

func TestNewCardData(t *testing.T) {
	tests := []struct {
		name    string
		imageID string
		wantErr bool
		want    string
	}{
		{name: "Fresh", imageID: ""},
		{name: "Canonical", imageID: testCardID, want: testCardID},
		{name: "Uppercase", imageID: strings.ToUpper(testCardID), want: testCardID},
		{name: "Garbage", imageID: "not-a-uuid", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card, err := NewCardData("Nova", nil, tt.imageID)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewCardData() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if _, err := uuid.Parse(card.ImageID()); err != nil {
				t.Fatalf("ImageID() = %q is not a UUID", card.ImageID())
			}
			if tt.want != "" && card.ImageID() != tt.want {
				t.Errorf("ImageID() = %q, want %q", card.ImageID(), tt.want)
			}
			if card.O8DType != -1 {
				t.Errorf("O8DType = %d, want -1", card.O8DType)
			}
			if card.Properties() == nil {
				t.Error("Properties() = nil, want empty set")
			}
		})
	}
}

func TestCreateAlt(t *testing.T) {
	card, err := NewCardData("Spider-Man", nil, testCardID)
	if err != nil {
		t.Fatal(err)
	}
	alt := card.CreateAlt("Peter Parker", nil, "")
	if alt.Tag() != DefaultAltTag {
		t.Errorf("Tag() = %q, want %q", alt.Tag(), DefaultAltTag)
	}
	if got, want := alt.ImageID(), testCardID+".b"; got != want {
		t.Errorf("ImageID() = %q, want %q", got, want)
	}
	if alt.Parent() != card {
		t.Error("Parent() is not the owning card")
	}

	// A second alt replaces the first.
	other := card.CreateAlt("Miles Morales", nil, "c")
	if card.Alt() != other {
		t.Error("Alt() still returns the replaced side")
	}
	if got, want := other.ImageID(), testCardID+".c"; got != want {
		t.Errorf("ImageID() = %q, want %q", got, want)
	}
}

func TestCardCopy(t *testing.T) {
	card, err := NewCardData("She-Hulk", nil, testCardID)
	if err != nil {
		t.Fatal(err)
	}
	if err := card.Properties().Set("HP", 12); err != nil {
		t.Fatal(err)
	}
	card.O8DType = 3
	card.CreateAlt("Jennifer Walters", nil, "")

	cp := card.Copy()
	if cp.ImageID() != card.ImageID() {
		t.Errorf("Copy() ImageID = %q, want %q", cp.ImageID(), card.ImageID())
	}
	if cp.O8DType != 3 {
		t.Errorf("Copy() O8DType = %d, want 3", cp.O8DType)
	}
	if cp.Alt() == nil || cp.Alt().Name() != "Jennifer Walters" {
		t.Fatal("Copy() lost the alternate side")
	}
	if cp.Alt() == card.Alt() {
		t.Error("Copy() shares the alternate side with the original")
	}
	if err := cp.Properties().Set("HP", 15); err != nil {
		t.Fatal(err)
	}
	if got, _ := card.Properties().Get("HP"); got != 12 {
		t.Errorf("original HP = %v after mutating the copy, want 12", got)
	}
}

func TestDecodeCard(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		wantName string
		wantType int
		wantErr  bool
	}{
		{
			name:     "Plain",
			lines:    []string{"CARD:" + testCardID + ":-1:Nova", "Type:ally"},
			wantName: "Nova",
			wantType: -1,
		},
		{
			name:     "TypeSet",
			lines:    []string{"CARD:" + testCardID + ":0:Nova", "---"},
			wantName: "Nova",
			wantType: 0,
		},
		{
			name:     "NameWithColons",
			lines:    []string{"CARD:" + testCardID + ":-1:Ms. Marvel: Embiggen!", "---"},
			wantName: "Ms. Marvel: Embiggen!",
			wantType: -1,
		},
		{
			name:     "EscapedName",
			lines:    []string{`CARD:` + testCardID + `:-1:Two\nLines`, "---"},
			wantName: "Two\nLines",
			wantType: -1,
		},
		{
			name:     "LowercaseKeyword",
			lines:    []string{"card:" + testCardID + ":-1:Nova", "---"},
			wantName: "Nova",
			wantType: -1,
		},
		{name: "Empty", lines: nil, wantErr: true},
		{name: "TooFewFields", lines: []string{"CARD:" + testCardID, "---"}, wantErr: true},
		{name: "NoID", lines: []string{"CARD::-1:Nova", "---"}, wantErr: true},
		{name: "BadID", lines: []string{"CARD:xyz:-1:Nova", "---"}, wantErr: true},
		{name: "BadType", lines: []string{"CARD:" + testCardID + ":abc:Nova", "---"}, wantErr: true},
		{name: "BadKeyword", lines: []string{"HERO:" + testCardID + ":-1:Nova", "---"}, wantErr: true},
		{name: "BadProperty", lines: []string{"CARD:" + testCardID + ":-1:Nova", "Mana:3"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card, err := DecodeCard(nil, tt.lines)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeCard() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if card.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", card.Name(), tt.wantName)
			}
			if card.O8DType != tt.wantType {
				t.Errorf("O8DType = %d, want %d", card.O8DType, tt.wantType)
			}
		})
	}
}

func TestDecodeCardAlt(t *testing.T) {
	parent, err := NewCardData("Spider-Man", nil, testCardID)
	if err != nil {
		t.Fatal(err)
	}
	card, err := DecodeCard(parent, []string{"ALTCARD:Peter Parker", "HandSize:6"})
	if err != nil {
		t.Fatalf("DecodeCard() error = %v", err)
	}
	if card != nil {
		t.Fatalf("DecodeCard() = %v, want nil for an alt block", card)
	}
	alt := parent.Alt()
	if alt == nil {
		t.Fatal("alt block did not attach to the parent")
	}
	if alt.Name() != "Peter Parker" {
		t.Errorf("alt Name() = %q, want %q", alt.Name(), "Peter Parker")
	}
	if got, _ := alt.Properties().Get("HandSize"); got != 6 {
		t.Errorf("alt HandSize = %v, want 6", got)
	}
}

func TestDecodeCardAltWithoutParent(t *testing.T) {
	if _, err := DecodeCard(nil, []string{"ALTCARD:Orphan", "---"}); err == nil {
		t.Error("DecodeCard() accepted an alt block without a parent")
	}
}

func TestCardEncode(t *testing.T) {
	card, err := NewCardData("Nova", nil, testCardID)
	if err != nil {
		t.Fatal(err)
	}
	if err := card.Properties().Set("Type", "ally"); err != nil {
		t.Fatal(err)
	}
	want := "CARD:" + testCardID + ":-1:Nova\nType:ally\n\n"
	if got := card.Encode(); got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}

	card.CreateAlt("Backside", nil, "")
	if got, want := card.Alt().Encode(), "ALTCARD:Backside\n---\n\n"; got != want {
		t.Errorf("alt Encode() = %q, want %q", got, want)
	}
}
