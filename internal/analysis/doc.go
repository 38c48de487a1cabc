// Package analysis holds the pure computations behind the cosmoviz reports:
// the parameter table, denormalization of network outputs back to physical
// units, and the accuracy statistics printed next to the scatter plot.
//
// Nothing in this package touches the filesystem except LoadParameterFile.
// Division by zero is never allowed to produce NaN or Inf: every statistic
// either fails with a DIVIDE_BY_ZERO Error or, under ZeroPolicyExclude,
// drops the offending instances and reports how many it dropped.
package analysis
