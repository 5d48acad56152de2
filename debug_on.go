//go:build gameloopdebug

package gameloop

// debugLayerDefault requests the driver validation layer in debug builds.
const debugLayerDefault = true
