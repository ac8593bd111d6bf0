// Package world declares the collaborators the targeting core consumes:
// the solar system model, the live ship registry, the scene renderer,
// persistent storage, audio and time. Implementations live in universe,
// scene, store and audio; tests provide their own fakes.
package world
