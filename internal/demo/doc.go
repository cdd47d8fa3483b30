// Package demo is a small scripted application used by the vango-react
// command. It exercises every hook the bridge offers on either the
// in-process simulator or the goja-hosted JavaScript runtime.
package demo
