package dirs

import (
	"errors"
	"os/user"
	"path/filepath"
	"testing"
)

func TestProjectDir_Default(t *testing.T) {
	t.Setenv("RELAUNCH_PROJECT_DIR", "")
	t.Setenv("HOME", "/home/pi")

	got := ProjectDir()
	want := filepath.Join("/home/pi", "myProjects", "python", "slideshow")
	if got != want {
		t.Errorf("ProjectDir() = %q, want %q", got, want)
	}
}

func TestProjectDir_EnvOverride(t *testing.T) {
	t.Setenv("HOME", "/home/pi")

	tests := []struct {
		env  string
		want string
	}{
		{"/srv/slides", "/srv/slides"},
		{"~/kiosk", filepath.Join("/home/pi", "kiosk")},
		{"~", "/home/pi"},
		{"relative/dir", "relative/dir"},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv("RELAUNCH_PROJECT_DIR", tt.env)
			if got := ProjectDir(); got != tt.want {
				t.Errorf("ProjectDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExpandHome_LeavesTildeUserAlone(t *testing.T) {
	t.Setenv("HOME", "/home/pi")
	if got := ExpandHome("~other/x"); got != "~other/x" {
		t.Errorf("ExpandHome(~other/x) = %q", got)
	}
}

func TestProjectDir_NoHome(t *testing.T) {
	t.Setenv("RELAUNCH_PROJECT_DIR", "")
	t.Setenv("HOME", "")
	orig := currentUser
	currentUser = func() (*user.User, error) { return nil, errors.New("no passwd entry") }
	t.Cleanup(func() { currentUser = orig })

	if got := HomeDir(); got != "" {
		t.Errorf("HomeDir() = %q, want empty", got)
	}
	if got := ProjectDir(); got != "" {
		t.Errorf("ProjectDir() = %q, want empty", got)
	}
	if got := ExpandHome("~/kiosk"); got != "~/kiosk" {
		t.Errorf("ExpandHome(~/kiosk) = %q, want it unchanged", got)
	}
}

func TestHomeDir_FallsBackToPasswd(t *testing.T) {
	t.Setenv("HOME", "")
	orig := currentUser
	currentUser = func() (*user.User, error) { return &user.User{HomeDir: "/home/kiosk"}, nil }
	t.Cleanup(func() { currentUser = orig })

	if got := HomeDir(); got != "/home/kiosk" {
		t.Errorf("HomeDir() = %q, want /home/kiosk", got)
	}
}
