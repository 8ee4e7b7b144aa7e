package jsonpath

import "testing"

func TestLookup(t *testing.T) {
	root := map[string]interface{}{
		"text": "hallo welt",
		"choices": []interface{}{
			map[string]interface{}{
				"message": map[string]interface{}{"content": "corrected"},
			},
		},
		"segments": []interface{}{
			map[string]interface{}{"words": []interface{}{"a", "b"}},
		},
	}

	if v, ok := Lookup(root, "choices[0].message.content"); !ok || v != "corrected" {
		t.Fatalf("got %q ok=%v", v, ok)
	}
	if v, ok := Lookup(root, "segments[0].words[1]"); !ok || v != "b" {
		t.Fatalf("got %q ok=%v", v, ok)
	}
	if _, ok := Lookup(root, "choices[5].message.content"); ok {
		t.Fatalf("out-of-range index should not resolve")
	}
	if _, ok := Lookup(root, "missing.path"); ok {
		t.Fatalf("missing path should not resolve")
	}
}

func TestExtractFallsBackToText(t *testing.T) {
	body := []byte(`{"text":"ein test","language":"de"}`)
	if got := Extract(body, "choices[0].message.content"); got != "ein test" {
		t.Fatalf("got %q", got)
	}
}

func TestExtractPreferredPath(t *testing.T) {
	body := []byte(`{"text":"raw","choices":[{"message":{"content":"polished"}}]}`)
	if got := Extract(body, "choices[0].message.content"); got != "polished" {
		t.Fatalf("got %q", got)
	}
}

func TestExtractInvalidJSON(t *testing.T) {
	if got := Extract([]byte("not json"), "text"); got != "" {
		t.Fatalf("got %q for invalid JSON", got)
	}
}

func TestSplitToken(t *testing.T) {
	key, idxs, err := splitToken("items[0][3]")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if key != "items" || len(idxs) != 2 || idxs[0] != 0 || idxs[1] != 3 {
		t.Fatalf("key=%q idxs=%v", key, idxs)
	}
	if _, _, err := splitToken("bad[x]"); err == nil {
		t.Fatalf("expected error for non-numeric index")
	}
	if _, _, err := splitToken(""); err == nil {
		t.Fatalf("expected error for empty token")
	}
}
