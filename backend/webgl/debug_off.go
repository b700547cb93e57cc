//go:build !gldebug

package webgl

const debugEnabled = false
