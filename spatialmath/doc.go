// Package spatialmath defines the planar geometry used by the kinematics and odometry
// packages: translations, rotations, poses, transforms and twists. All values are immutable;
// every operation returns a new value.
package spatialmath
