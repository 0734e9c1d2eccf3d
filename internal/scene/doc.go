// Package scene maps a NEO record to a two-object comparison scene.
//
// A scene holds a reference box whose height is a fixed landmark (93 m, the
// Statue of Liberty from base to torch) and an irregular convex shape sized to
// the record's median estimated diameter. Both are expressed in scene units of
// kilometers multiplied by the session scale factor.
//
// Layout rules, with S the scale factor, H the reference height and D the
// median diameter in km:
//
//	H        = 93/1000 * S
//	target   = D * S
//	k        = max(min(target/size.x, target/size.y, target/size.z), 0.1)
//	spacing  = (size.x*k + H)/2 + 15
//	camera.z = max(200, 80 * 2 * target/H)
//
// where size is the bounding-box extent of the unscaled hull. The reference
// sits at -spacing on the x axis and the comparison at +spacing.
package scene
