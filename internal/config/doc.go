// Package config loads dashboard configuration.
//
// Values come from environment variables prefixed with ESGDASH_ (highest
// priority), an optional config.yaml, and struct-tag defaults:
//
//	ESGDASH_SERVER_PORT=8501
//	ESGDASH_DATASET_PATH=/data/sp500esg.csv
//	ESGDASH_DATASET_CANDIDATES=sp500esg.csv,esg_project/sp500esg.csv
//	ESGDASH_LOGGING_LEVEL=debug
//	ESGDASH_DASHBOARD_DEFAULT_TOP_N=15
//
// The dataset section drives the loader's ordered candidate list, see
// Config.DatasetCandidates and Paths.ResolveCandidates.
package config
