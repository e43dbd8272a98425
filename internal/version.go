package internal

// Version is the bubbletrans release version
const Version = "0.3.0"
