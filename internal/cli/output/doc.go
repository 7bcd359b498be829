// Package output renders server replies for respd-cli.
//
//   - formatter.go: Formatter interface and factory
//   - text.go: redis-cli style rendering of frames
//   - value.go: conversion of frames to plain values
//   - json.go, yaml.go: machine-readable output for scripting
//   - table.go: aligned columns for maps and listings
package output
