package util

import (
	"math/rand"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetenv(t *testing.T) {
	defer SetEnv("test_getenv", "set")()
	assert.Equal(t, "set", Getenv("test_getenv", "default"))
	assert.Equal(t, "default", Getenv("test_getenv_missing", "default"))
}

func TestSetEnv(t *testing.T) {
	a := assert.New(t)
	_, found := os.LookupEnv("test_foo")

	a.False(found)
	unset1 := SetEnv("test_foo", "bar")
	a.Equal("bar", os.Getenv("test_foo"))

	unset2 := SetEnv("test_foo", "bar2")
	a.Equal("bar2", os.Getenv("test_foo"))
	unset2()
	a.Equal("bar", os.Getenv("test_foo"))
	unset1()

	_, found = os.LookupEnv("test_foo")
	a.False(found)
}

func TestRandomRobotName(t *testing.T) {
	random = rand.New(rand.NewSource(0)) // nolint:gosec

	name := RandomRobotName()
	assert.NotEqual(t, "", name)

	// the roster repeats eventually
	seen := map[string]bool{name: true}
	for i := 0; i < 200; i++ {
		seen[RandomRobotName()] = true
	}
	assert.True(t, len(seen) > 1)
	assert.True(t, len(seen) <= len(robots))
}
