//go:build !gameloopdebug

package gameloop

const debugLayerDefault = false
