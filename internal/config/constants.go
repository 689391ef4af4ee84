package config

// Application constants
const (
	AppName = "genosum"

	// EnvPrefix namespaces all environment variables (GENOSUM_*)
	EnvPrefix = "GENOSUM"

	// Defaults mirroring the layout the ESCC cohort was delivered in
	DefaultBaseFolder     = "./grade_generalised"
	DefaultFailureLogPath = "failed_files.log"
	DefaultTopGenes       = 10

	// Output naming
	StageOutputPrefix    = "ESCC_Genomic_Summary_"
	OverallOutputName    = "ESCC_Overall_Genomic_Summary"
	OutputTimestampFormat = "2006-01-02_15-04-05"

	// Modes
	ModeStages  = "stages"
	ModeOverall = "overall"

	// Missing segment-mean column policies
	PolicyLog  = "log"
	PolicySkip = "skip"

	// Output formats
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)
