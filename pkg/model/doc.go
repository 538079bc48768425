// Package model describes the base objects manipulated by cimfs.
//
// The object model is composed of:
//
//	Objects:
//	  An object is a single host file or directory queued for insertion
//	  into a composite image, together with the target path it will
//	  occupy inside the image.
//
//	Ancestor entries:
//	  An ancestor entry is a directory path that must exist in an image
//	  before a deeper path can be inserted under it. Ancestor entries
//	  order by depth first, then lexically, so a parent always sorts
//	  before any of its descendants.
//
//	Object sets:
//	  An object set is the merged, deduplicated batch handed to an image
//	  build: an ordered ancestor closure plus the objects themselves.
package model
