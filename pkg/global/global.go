package global

var (
	Version        = "0.1.0"
	Commit         = ""
	BuildTime      = "none"
	Verbose        = false
	ConfigFilename = "galaxy.yml"
)

// Environment variables recognized across commands.
const (
	LogDirectoryEnv    = "GALAXYCTL_LOG_DIRECTORY"
	OutputDirEnv       = "ROOT_DIR"
	CollectionsPathEnv = "ANSIBLE_COLLECTIONS_PATH"
)
