package cache

import (
	"testing"
	"time"
)

func TestMsgpackCodecRoundTrip(t *testing.T) {
	codec := NewMsgpackCodec()

	type entry struct {
		IDs      []any     `msgpack:"ids"`
		Suffix   string    `msgpack:"suffix"`
		CachedAt time.Time `msgpack:"cached_at"`
	}

	in := entry{
		IDs:      []any{int64(1), int64(2), "c3"},
		Suffix:   "active",
		CachedAt: time.Now().UTC().Truncate(time.Second),
	}

	data, err := codec.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var out entry
	if err := codec.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if out.Suffix != in.Suffix {
		t.Errorf("suffix = %q, want %q", out.Suffix, in.Suffix)
	}
	if len(out.IDs) != len(in.IDs) {
		t.Fatalf("ids length = %d, want %d", len(out.IDs), len(in.IDs))
	}
	if !out.CachedAt.Equal(in.CachedAt) {
		t.Errorf("cached at = %v, want %v", out.CachedAt, in.CachedAt)
	}
	// Identifier rendering must survive the round trip even when msgpack
	// narrows integer widths.
	for i := range in.IDs {
		if FormatIdentifier(out.IDs[i]) != FormatIdentifier(in.IDs[i]) {
			t.Errorf("ids[%d] renders as %q, want %q", i, FormatIdentifier(out.IDs[i]), FormatIdentifier(in.IDs[i]))
		}
	}
}

func TestMsgpackCodecUnmarshalGarbage(t *testing.T) {
	codec := NewMsgpackCodec()

	var out map[string]any
	if err := codec.Unmarshal([]byte("not msgpack at all"), &out); err == nil {
		t.Error("expected error when decoding garbage, got nil")
	}
}
