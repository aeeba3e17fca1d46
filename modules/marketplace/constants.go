package marketplace

const Version = "v0.2.1"
