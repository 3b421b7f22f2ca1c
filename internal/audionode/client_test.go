package audionode

import "testing"

func TestParseLoadResultSingleTrack(t *testing.T) {
	body := []byte(`{
		"loadType": "TRACK_LOADED",
		"tracks": [
			{
				"track": "encoded-1",
				"info": {
					"uri": "https://example.com/a",
					"title": "Track A",
					"author": "Author A",
					"length": 215000,
					"isStream": false
				}
			}
		]
	}`)

	res, err := parseLoadResult(body)
	if err != nil {
		t.Fatalf("parseLoadResult: %v", err)
	}
	if res == nil || len(res.Tracks) != 1 {
		t.Fatalf("result = %v, want one track", res)
	}
	if res.IsPlaylist() {
		t.Error("single track reported as playlist")
	}

	got := res.Tracks[0]
	if got.ID != "encoded-1" || got.Title != "Track A" || got.Length != 215000 {
		t.Errorf("track = %+v", got)
	}
}

func TestParseLoadResultPlaylist(t *testing.T) {
	body := []byte(`{
		"loadType": "PLAYLIST_LOADED",
		"playlistInfo": {"name": "Mix"},
		"tracks": [
			{"track": "e1", "info": {"uri": "u1", "title": "t1", "author": "a1", "length": 1000, "isStream": false}},
			{"track": "e2", "info": {"uri": "u2", "title": "t2", "author": "a2", "length": 2000, "isStream": false}}
		]
	}`)

	res, err := parseLoadResult(body)
	if err != nil {
		t.Fatalf("parseLoadResult: %v", err)
	}
	if !res.IsPlaylist() || res.PlaylistName != "Mix" {
		t.Errorf("playlist name = %q, want Mix", res.PlaylistName)
	}
	if len(res.Tracks) != 2 {
		t.Errorf("tracks = %d, want 2", len(res.Tracks))
	}
}

func TestParseLoadResultStreamHasNoLength(t *testing.T) {
	body := []byte(`{
		"loadType": "TRACK_LOADED",
		"tracks": [
			{"track": "e1", "info": {"uri": "u1", "title": "live", "author": "a1", "length": 9223372036854775807, "isStream": true}}
		]
	}`)

	res, err := parseLoadResult(body)
	if err != nil {
		t.Fatalf("parseLoadResult: %v", err)
	}
	if res.Tracks[0].Length != 0 {
		t.Errorf("stream length = %d, want 0", res.Tracks[0].Length)
	}
}

func TestParseLoadResultNoMatches(t *testing.T) {
	for _, body := range []string{
		`{"loadType": "NO_MATCHES", "tracks": []}`,
		`{"loadType": "LOAD_FAILED", "tracks": []}`,
		`{"loadType": "SEARCH_RESULT", "tracks": []}`,
	} {
		res, err := parseLoadResult([]byte(body))
		if err != nil {
			t.Fatalf("parseLoadResult(%s): %v", body, err)
		}
		if res != nil {
			t.Errorf("result for %s = %v, want nil", body, res)
		}
	}
}

func TestParseLoadResultMalformed(t *testing.T) {
	if _, err := parseLoadResult([]byte("not json")); err == nil {
		t.Error("malformed body parsed without error")
	}
}
