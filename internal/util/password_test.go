package util_test

import (
	"testing"

	"projecthub/internal/util"
)

func TestPasswordHashAndCheck(t *testing.T) {
	hash, err := util.HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !util.CheckPassword("hunter22", hash) {
		t.Error("correct password rejected")
	}
	if util.CheckPassword("wrong", hash) {
		t.Error("wrong password accepted")
	}
}
