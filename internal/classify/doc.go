// Package classify implements the linear community-event classifier.
//
// A Classifier is a maximum-margin linear decision function (weights + bias)
// over feature vectors, trained with hinge-loss SGD and balanced class
// weights. The fitted feature extractor and the classifier are persisted and
// loaded together as a single versioned Artifact; invoking one against the
// other's mismatch is a fatal configuration error, never a silent wrong
// prediction.
package classify
