// Package testutil holds helpers shared by the package tests: a capturing
// slog handler and small ESG dataset fixtures.
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    path := testutil.WriteFixture(t, "sp500esg.csv", testutil.SampleCSV)
//	    ...
//	    testutil.AssertLogContains(t, logs, slog.LevelInfo, "dataset loaded")
//	}
package testutil
