package version

var (
	Version   = "dev"
	GitCommit = ""
	BuildDate = ""
)
