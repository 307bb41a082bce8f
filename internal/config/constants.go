package config

import "esgdash/pkg/contracts"

// Application constants
const (
	AppName    = "ESG Risk Dashboard"
	AppVersion = contracts.Version
	BinaryName = "esgdash"

	// Widget bounds for the top-N explorer slider
	MinTopN     = 5
	MaxTopN     = 50
	DefaultTopN = 15

	// Rows shown in the dataset overview sample
	SampleRows = 5
)
