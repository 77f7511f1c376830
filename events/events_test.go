package events

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/harrowgate/fnrep/container"
)

func TestParseEliminationBotVsNamed(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(make([]byte, eliminationPrefixSkip))
	buf.WriteByte(0x03) // victim: Bot
	buf.WriteByte(0x10) // killer: named
	binary.Write(&buf, binary.LittleEndian, uint64(len("Reboot Van")))
	buf.WriteString("Reboot Van")
	buf.WriteByte(7)                                  // gun type
	binary.Write(&buf, binary.LittleEndian, uint32(1)) // knocked

	got, err := ParseElimination(container.Event{Group: GroupPlayerElim, Data: buf.Bytes()})
	if err != nil {
		t.Fatalf("ParseElimination: %v", err)
	}
	if got.VictimID != "Bot" {
		t.Errorf("VictimID = %q, want %q", got.VictimID, "Bot")
	}
	if got.KillerID != "Reboot Van" {
		t.Errorf("KillerID = %q, want %q", got.KillerID, "Reboot Van")
	}
	if got.GunType != 7 {
		t.Errorf("GunType = %d, want 7", got.GunType)
	}
	if !got.Knocked {
		t.Error("Knocked = false, want true")
	}
}

func TestParseEliminationGUIDReference(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(make([]byte, eliminationPrefixSkip))

	guid := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	buf.WriteByte(0x05) // unrecognized tag -> GUID path
	buf.WriteByte(byte(len(guid)))
	buf.Write(guid)

	buf.WriteByte(0x03) // killer: Bot
	buf.WriteByte(3)
	binary.Write(&buf, binary.LittleEndian, uint32(0))

	got, err := ParseElimination(container.Event{Group: GroupPlayerElim, Data: buf.Bytes()})
	if err != nil {
		t.Fatalf("ParseElimination: %v", err)
	}
	if got.VictimID != "deadbeef" {
		t.Errorf("VictimID = %q, want %q", got.VictimID, "deadbeef")
	}
	if got.Knocked {
		t.Error("Knocked = true, want false")
	}
}

func TestParseEliminationRejectsWrongGroup(t *testing.T) {
	if _, err := ParseElimination(container.Event{Group: "somethingElse"}); err == nil {
		t.Error("ParseElimination should reject an event with the wrong group")
	}
}

func TestParseMatchStats(t *testing.T) {
	var buf bytes.Buffer
	fields := []uint32{0, 0, 2, 5, 300, 50, 1, 120, 75, 400, 350, 1200}
	for i, v := range fields {
		if i == 1 {
			binary.Write(&buf, binary.LittleEndian, float32(0.42))
			continue
		}
		binary.Write(&buf, binary.LittleEndian, v)
	}

	got, err := ParseMatchStats(container.Event{Data: buf.Bytes()})
	if err != nil {
		t.Fatalf("ParseMatchStats: %v", err)
	}
	if got.Eliminations != 5 || got.Assists != 2 || got.TotalTravelled != 1200 {
		t.Errorf("ParseMatchStats() = %+v", got)
	}
	if got.Accuracy < 0.41 || got.Accuracy > 0.43 {
		t.Errorf("Accuracy = %v, want ~0.42", got.Accuracy)
	}
}

func TestParseTeamStats(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(0))
	binary.Write(&buf, binary.LittleEndian, uint32(1))
	binary.Write(&buf, binary.LittleEndian, uint32(50))

	got, err := ParseTeamStats(container.Event{Data: buf.Bytes()})
	if err != nil {
		t.Fatalf("ParseTeamStats: %v", err)
	}
	if got.Position != 1 || got.TotalPlayers != 50 {
		t.Errorf("ParseTeamStats() = %+v", got)
	}
}
