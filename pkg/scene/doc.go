// Package scene defines the scene graph produced by the ride generator.
// The scene graph is an arena of nodes addressed by index, each holding a
// parent index, a local transform and a kind-specific payload.
package scene
