package main

import "errors"

var (
	errUnknownScenario = errors.New("unknown scenario")
	errConfigRead      = errors.New("cannot read config file")
	errConfigInvalid   = errors.New("invalid config file")
	errArenaExhausted  = errors.New("arena allocation failed")
)
