package tabula

const Version = "0.1.0"
