package video

import "testing"

func TestIsMediaFile(t *testing.T) {
	tests := []struct {
		path  string
		video bool
		audio bool
	}{
		{"talk.mp4", true, false},
		{"talk.MKV", true, false},
		{"dir/clip.webm", true, false},
		{"podcast.m4a", false, true},
		{"podcast.opus", false, true},
		{"talk.srt", false, false},
		{"noext", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := IsVideoFile(tt.path); got != tt.video {
				t.Errorf("IsVideoFile() = %v, want %v", got, tt.video)
			}
			if got := IsAudioFile(tt.path); got != tt.audio {
				t.Errorf("IsAudioFile() = %v, want %v", got, tt.audio)
			}
			if got := IsMediaFile(tt.path); got != (tt.video || tt.audio) {
				t.Errorf("IsMediaFile() = %v", got)
			}
		})
	}
}
