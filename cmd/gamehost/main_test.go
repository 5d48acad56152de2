package main

import (
	"testing"

	"github.com/gogpu/gameloop"
)

func TestStart(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want int
	}{
		{
			name: "frame limit reached",
			env:  map[string]string{"GAMELOOP_BACKEND": "null", "GAMELOOP_FRAME_LIMIT": "3"},
			want: 0,
		},
		{
			name: "unknown backend",
			env:  map[string]string{"GAMELOOP_BACKEND": "missing", "GAMELOOP_FRAME_LIMIT": "3"},
			want: 1,
		},
		{
			name: "invalid config",
			env:  map[string]string{"GAMELOOP_WIDTH": "10"},
			want: 1,
		},
	}

	orig := gameloop.Logger()
	t.Cleanup(func() { gameloop.SetLogger(orig) })

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", "error")
			t.Setenv("METRICS_ADDR", "127.0.0.1:0")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if got := start(); got != tt.want {
				t.Errorf("start() = %d, want %d", got, tt.want)
			}
		})
	}
}
