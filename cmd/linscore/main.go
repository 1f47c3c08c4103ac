// Command linscore scores feature files with a fitted linear model.
//
//	linscore --model clf.yaml --input features.csv predict
//	linscore --model clf.yaml --libsvm features.svm proba
//	linscore --model clf.yaml nnz --percentage
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
