// Package dataset owns the sample data model of the navigation dataset.
//
// Responsibilities: raw sensor rows (metres), normalized feature rows
// (integer centimetres clamped to [0, 100]), labeled rows, per-class counts,
// and the CSV table schema for both variants.
//
// Variant V1 carries no collision flag and no far-front reading. Variant V2
// adds lidar_max (far_front) and collision_flag (collision).
//
// No labeling rules or balancing live here; see internal/labeling and
// internal/balance.
package dataset
