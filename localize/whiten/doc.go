// Package whiten provides the linear whitening transform applied to sensor
// data and gain dictionaries before source scanning.
//
// A whitener normalizes the sensor noise covariance to identity, so that
// residual-energy scores compare like with like across sensors. Transforms
// may be supplied directly or derived from a noise covariance estimate.
package whiten
