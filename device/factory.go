package device

type Factory interface {
	FromSpec(spec DeviceSpec) (Identity, error)
}

type FactoryDocs interface {
	Help() string
}
