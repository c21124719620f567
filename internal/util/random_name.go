package util

import (
	"math/rand"
	"time"
)

var random = rand.New(rand.NewSource(time.Now().UnixNano())) // nolint:gosec

// robots that may be seated to fill out a short table
var robots = []string{
	"R2D2", "Marvin", "Wall-E", "Gort", "Robby", "Hal", "Data", "Rosie",
	"Bender", "Optimus", "T-800", "Johnny 5", "KITT", "GLaDOS", "Clank",
	"Chappie", "Baymax", "Ultron", "Astro", "Maria",
}

// RandomRobotName returns the name of one of the house robots
func RandomRobotName() string {
	return robots[random.Intn(len(robots))]
}
