package internal

// Version is the current kannadify release.
const Version = "0.3.0"
