package session

import (
	"path/filepath"
	"testing"

	"github.com/hyperjump/dishhub/internal/models"
)

func TestSession_LoginLogout(t *testing.T) {
	s := New()
	if s.Authenticated() {
		t.Fatal("new session should be anonymous")
	}
	s.Login(models.User{ID: "u1", Username: "chef"}, "tok")
	u, ok := s.User()
	if !ok || u.ID != "u1" || s.Credential() != "tok" {
		t.Errorf("after login: user=%+v ok=%v cred=%q", u, ok, s.Credential())
	}
	if !s.Owns(&models.Recipe{CreatedBy: "u1"}) || s.Owns(&models.Recipe{CreatedBy: "u2"}) {
		t.Error("ownership check wrong")
	}
	s.Logout()
	if _, ok := s.User(); ok || s.Authenticated() {
		t.Error("logout should clear user and credential")
	}
	if s.Owns(&models.Recipe{CreatedBy: ""}) {
		t.Error("anonymous session owns nothing")
	}
}

func TestSession_SaveLoadClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	s := New()
	s.Login(models.User{ID: "u1", Username: "chef"}, "tok")
	if err := s.Save(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	u, ok := loaded.User()
	if !ok || u.Username != "chef" || loaded.Credential() != "tok" {
		t.Errorf("loaded: %+v %q", u, loaded.Credential())
	}
	if err := Clear(path); err != nil {
		t.Fatal(err)
	}
	if err := Clear(path); err != nil {
		t.Errorf("second clear: %v", err)
	}
	anon, err := Load(path)
	if err != nil || anon.Authenticated() {
		t.Errorf("missing file should load anonymous: %v", err)
	}
}
