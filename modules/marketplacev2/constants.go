package marketplacev2

const Version = "v0.2.1"
