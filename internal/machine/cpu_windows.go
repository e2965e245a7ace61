package machine

import "golang.org/x/sys/windows/registry"

func cpuModel() string {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE,
		`HARDWARE\DESCRIPTION\System\CentralProcessor\0`, registry.QUERY_VALUE)
	if err != nil {
		return ""
	}
	defer k.Close()

	model, _, err := k.GetStringValue("ProcessorNameString")
	if err != nil {
		return ""
	}
	return model
}
