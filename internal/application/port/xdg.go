package port

// XDGPaths provides the on-disk locations iconscope owns.
type XDGPaths interface {
	ConfigDir() (string, error)
	CustomIconDir() (string, error)
	DatabaseFile() (string, error)
	LogDir() (string, error)
}
