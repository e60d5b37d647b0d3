// Package pairingapi implements the pairing-api service which orchestrates
// pair-coding sessions.
//
// Each session owns a LiveKit video call and a Stream chat channel named by
// the same call id. Creating a session provisions both resources and rolls
// back whatever was created when a step fails. Joining claims the single
// participant seat with a conditional update, and ending completes the
// session before tearing its resources down. A background reconciler removes
// rooms and channels left behind by failed cleanups.
package pairingapi
