// Package quat implements the orientation algebra underneath the rigid
// body simulation: Hamilton quaternions used both as spatial vectors and
// as orientations, and 4x4 affine tensors used for body poses and inertia
// tensors.
//
// Conventions worth knowing before using the package:
//
//   - A spatial vector is a quaternion with W == 0. Positions, velocities,
//     forces, torques and momenta are all spatial vectors.
//   - [Quaternion.Dot] and [Quaternion.Cross] act on the vector part only.
//     This is deliberate and load-bearing; see the method comments.
//   - [Tensor.TransformInverse] and [Tensor.RotateInverse] assume an
//     orthonormal rotation block (true for pose transforms built with
//     [FromPose] from a unit versor). Inertia tensors are not orthonormal;
//     invert those with the general [Tensor.Inverse].
package quat
