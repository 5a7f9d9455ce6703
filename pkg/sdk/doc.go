// Package newsbayes trains and queries a multinomial Naive Bayes news classifier in-process.
//
// Documents carry a zero-based class, a title and a description. Training
// counts words per class; classification picks the class with the greatest
// log posterior; evaluation fills a confusion matrix and reports precision.
//
//	clf, _ := newsbayes.Train(ctx, []string{"World", "Sports"}, docs,
//	    newsbayes.WithSmoothing(1),
//	)
//	pred, _ := clf.Classify(ctx, "Late goal", "Home side wins the derby")
//	report, _ := clf.Evaluate(ctx, heldOut)
//
// Tables in the AG News layout (CSV or Parquet) can be loaded directly:
//
//	clf, _ := newsbayes.TrainFile(ctx, "train.csv", newsbayes.WithClassesFile("classes.txt"))
//	report, _ := clf.EvaluateFile(ctx, "test.csv")
package newsbayes
