package build

// Tag is set via -ldflags "-X vidgrab/pkg/build.Tag=..."
var Tag = "dev"
