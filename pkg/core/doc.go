// Copyright © 2018 One Concern

// Package core implements the composite-image build pipeline.
//
// Callers queue objects, Resolve computes the ancestor directories each
// one needs, model.Merge orders and deduplicates them, and Image drives
// the batch through a strict create → populate → commit lifecycle over
// the writer device. Committed images mount as read-only volumes;
// Dismount works from a bare volume identifier, independent of any
// Image value.
package core
