// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package device

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// DebugExtensionName is the instance extension that carries diagnostics hooks.
const DebugExtensionName = "VK_EXT_debug_report"

// NewVulkan loads the Vulkan entry points and returns a Driver backed by them.
// When procAddr is nil the system loader is used, otherwise procAddr must
// point at vkGetInstanceProcAddr (as handed out by SDL).
func NewVulkan(procAddr unsafe.Pointer) (*Vulkan, error) {
	if procAddr == nil {
		if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
			return nil, errors.New("vk.SetDefaultGetInstanceProcAddr(): " + err.Error())
		}
	} else {
		vk.SetGetInstanceProcAddr(procAddr)
	}

	if err := vk.Init(); err != nil {
		return nil, errors.New("vk.Init(): " + err.Error())
	}
	return &Vulkan{}, nil
}

var _ Driver = (*Vulkan)(nil)

// Vulkan implements Driver on top of the Vulkan API.
type Vulkan struct{}

// Layers implements interface
func (v *Vulkan) Layers() ([]string, error) {
	var count uint32
	if err := vk.Error(vk.EnumerateInstanceLayerProperties(&count, nil)); err != nil {
		return nil, errors.New("vk.EnumerateInstanceLayerProperties(): " + err.Error())
	}
	layers := make([]vk.LayerProperties, count)
	if err := vk.Error(vk.EnumerateInstanceLayerProperties(&count, layers)); err != nil {
		return nil, errors.New("vk.EnumerateInstanceLayerProperties(): " + err.Error())
	}

	names := make([]string, 0, count)
	for _, layer := range layers[:count] {
		layer.Deref()
		names = append(names, vk.ToString(layer.LayerName[:]))
	}
	return names, nil
}

// CreateConnection implements interface
func (v *Vulkan) CreateConnection(req ConnectionRequest) (Handle, error) {
	appInfo := vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		PApplicationName:   safeString(req.Application.Name),
		ApplicationVersion: req.Application.Version,
		PEngineName:        safeString(req.Application.EngineName),
		EngineVersion:      req.Application.EngineVersion,
		ApiVersion:         req.Application.APIVersion,
	}

	instanceInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        &appInfo,
		EnabledExtensionCount:   uint32(len(req.Extensions)),
		PpEnabledExtensionNames: safeStrings(req.Extensions),
		EnabledLayerCount:       uint32(len(req.Layers)),
		PpEnabledLayerNames:     safeStrings(req.Layers),
	}

	// Chaining the hook catches messages emitted while the instance
	// itself is being created, before InstallHook can run.
	if req.Hook != nil {
		hook := *req.Hook
		setActiveHook(&hook)
		dbgInfo := debugReportInfo(hook.MinSeverity)
		ref, allocs := dbgInfo.PassRef()
		defer allocs.Free()
		instanceInfo.PNext = unsafe.Pointer(ref)
	}

	var instance vk.Instance
	if err := vk.Error(vk.CreateInstance(&instanceInfo, nil, &instance)); err != nil {
		setActiveHook(nil)
		return nil, errors.New("vk.CreateInstance(): " + err.Error())
	}
	vk.InitInstance(instance)
	return instance, nil
}

// DestroyConnection implements interface
func (v *Vulkan) DestroyConnection(conn Handle) {
	if instance, ok := conn.(vk.Instance); ok {
		vk.DestroyInstance(instance, nil)
	}
	setActiveHook(nil)
}

// InstallHook implements interface
func (v *Vulkan) InstallHook(conn Handle, hook HookDescriptor) (Handle, error) {
	instance, ok := conn.(vk.Instance)
	if !ok {
		return nil, fmt.Errorf("vk.CreateDebugReportCallback(): not a Vulkan instance: %T", conn)
	}

	setActiveHook(&hook)
	dbgInfo := debugReportInfo(hook.MinSeverity)
	var callback vk.DebugReportCallback
	if err := vk.Error(vk.CreateDebugReportCallback(instance, &dbgInfo, nil, &callback)); err != nil {
		return nil, errors.New("vk.CreateDebugReportCallback(): " + err.Error())
	}
	return callback, nil
}

// RemoveHook implements interface
func (v *Vulkan) RemoveHook(conn Handle, hook Handle) {
	instance, ok := conn.(vk.Instance)
	if !ok {
		return
	}
	if callback, ok := hook.(vk.DebugReportCallback); ok {
		vk.DestroyDebugReportCallback(instance, callback, nil)
	}
	setActiveHook(nil)
}

// PhysicalDevices implements interface
func (v *Vulkan) PhysicalDevices(conn Handle) ([]Handle, error) {
	instance, ok := conn.(vk.Instance)
	if !ok {
		return nil, fmt.Errorf("vk.EnumeratePhysicalDevices(): not a Vulkan instance: %T", conn)
	}

	var deviceCount uint32
	if err := vk.Error(vk.EnumeratePhysicalDevices(instance, &deviceCount, nil)); err != nil {
		return nil, fmt.Errorf("vulkan physical device enumeration failed: %s", err)
	}
	if deviceCount == 0 {
		return nil, nil
	}
	availableDevices := make([]vk.PhysicalDevice, deviceCount)
	if err := vk.Error(vk.EnumeratePhysicalDevices(instance, &deviceCount, availableDevices)); err != nil {
		return nil, fmt.Errorf("vulkan physical device enumeration failed: %s", err)
	}

	handles := make([]Handle, 0, deviceCount)
	for _, pd := range availableDevices[:deviceCount] {
		handles = append(handles, pd)
	}
	return handles, nil
}

// Properties implements interface
func (v *Vulkan) Properties(physical Handle) Properties {
	pd, ok := physical.(vk.PhysicalDevice)
	if !ok {
		return Properties{}
	}

	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(pd, &props)
	props.Deref()

	// Get memory info
	var memoryProperties vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(pd, &memoryProperties)
	memoryProperties.Deref()
	var memory uint64
	for iMem := uint32(0); iMem < memoryProperties.MemoryHeapCount; iMem++ {
		memoryProperties.MemoryHeaps[iMem].Deref()
		memory += uint64(memoryProperties.MemoryHeaps[iMem].Size)
	}

	return Properties{
		Name:          vk.ToString(props.DeviceName[:]),
		Class:         classFromVulkan(props.DeviceType),
		DeviceID:      props.DeviceID,
		VendorID:      props.VendorID,
		APIVersion:    props.ApiVersion,
		DriverVersion: props.DriverVersion,
		Memory:        memory,
	}
}

// QueueFamilies implements interface
func (v *Vulkan) QueueFamilies(physical Handle) []QueueFamily {
	pd, ok := physical.(vk.PhysicalDevice)
	if !ok {
		return nil
	}

	var queueFamilyCount uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &queueFamilyCount, nil)
	queueFamilies := make([]vk.QueueFamilyProperties, queueFamilyCount)
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &queueFamilyCount, queueFamilies)

	families := make([]QueueFamily, 0, queueFamilyCount)
	for i := uint32(0); i < queueFamilyCount; i++ {
		queueFamilies[i].Deref()
		families = append(families, QueueFamily{
			Index:        i,
			Count:        queueFamilies[i].QueueCount,
			Capabilities: capabilitiesFromVulkan(queueFamilies[i].QueueFlags),
		})
	}
	return families
}

// CreateLogicalContext implements interface
func (v *Vulkan) CreateLogicalContext(physical Handle, req LogicalRequest) (Handle, error) {
	pd, ok := physical.(vk.PhysicalDevice)
	if !ok {
		return nil, fmt.Errorf("vk.CreateDevice(): not a Vulkan physical device: %T", physical)
	}

	queueInfos := []vk.DeviceQueueCreateInfo{{
		SType:            vk.StructureTypeDeviceQueueCreateInfo,
		QueueFamilyIndex: req.QueueFamily,
		QueueCount:       uint32(len(req.Priorities)),
		PQueuePriorities: req.Priorities,
	}}

	dci := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(req.Extensions)),
		PpEnabledExtensionNames: safeStrings(req.Extensions),
		EnabledLayerCount:       uint32(len(req.Layers)),
		PpEnabledLayerNames:     safeStrings(req.Layers),
	}

	var device vk.Device
	if err := vk.Error(vk.CreateDevice(pd, &dci, nil, &device)); err != nil {
		return nil, errors.New("vk.CreateDevice(): " + err.Error())
	}
	return device, nil
}

// DestroyLogicalContext implements interface
func (v *Vulkan) DestroyLogicalContext(logical Handle) {
	if device, ok := logical.(vk.Device); ok {
		vk.DestroyDevice(device, nil)
	}
}

// The binding keeps the first Go callback it is handed for the whole
// process, so every debug report goes through debugReportCallback and is
// routed to whichever hook is currently installed.
var (
	activeHookMu sync.Mutex
	activeHook   *HookDescriptor
)

func setActiveHook(hook *HookDescriptor) {
	activeHookMu.Lock()
	activeHook = hook
	activeHookMu.Unlock()
}

func debugReportInfo(min Severity) vk.DebugReportCallbackCreateInfo {
	return vk.DebugReportCallbackCreateInfo{
		SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags:       debugReportFlags(min),
		PfnCallback: debugReportCallback,
	}
}

func debugReportCallback(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
	object uint64, location uint, messageCode int32, pLayerPrefix string,
	pMessage string, pUserData unsafe.Pointer) vk.Bool32 {
	if dispatchMessage(messageFromVulkan(flags, messageCode, pLayerPrefix, pMessage)) {
		return vk.True
	}
	return vk.False
}

// dispatchMessage hands msg to the installed hook if it passes the hook's
// filters and returns whether the triggering call should be aborted.
func dispatchMessage(msg Message) bool {
	activeHookMu.Lock()
	hook := activeHook
	activeHookMu.Unlock()

	if hook == nil || hook.Handler == nil {
		return false
	}
	if msg.Severity < hook.MinSeverity || msg.Category&hook.Categories == 0 {
		return false
	}
	return hook.Handler.OnMessage(msg)
}

func debugReportFlags(min Severity) vk.DebugReportFlags {
	var flags vk.DebugReportFlagBits
	if min <= SeverityVerbose {
		flags |= vk.DebugReportDebugBit
	}
	if min <= SeverityInfo {
		flags |= vk.DebugReportInformationBit
	}
	if min <= SeverityWarning {
		flags |= vk.DebugReportWarningBit | vk.DebugReportPerformanceWarningBit
	}
	flags |= vk.DebugReportErrorBit
	return vk.DebugReportFlags(flags)
}

func messageFromVulkan(flags vk.DebugReportFlags, code int32, layer, text string) Message {
	msg := Message{
		Severity: SeverityVerbose,
		Category: CategoryGeneral,
		Layer:    layer,
		Code:     code,
		Text:     text,
	}
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		msg.Severity = SeverityError
		msg.Category = CategoryValidation
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
		msg.Severity = SeverityWarning
		msg.Category = CategoryValidation
	case flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		msg.Severity = SeverityWarning
		msg.Category = CategoryPerformance
	case flags&vk.DebugReportFlags(vk.DebugReportInformationBit) != 0:
		msg.Severity = SeverityInfo
	}
	return msg
}

func classFromVulkan(t vk.PhysicalDeviceType) Class {
	switch t {
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return ClassDiscrete
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return ClassIntegrated
	case vk.PhysicalDeviceTypeVirtualGpu:
		return ClassVirtual
	case vk.PhysicalDeviceTypeCpu:
		return ClassSoftware
	default:
		return ClassOther
	}
}

func capabilitiesFromVulkan(flags vk.QueueFlags) QueueCapability {
	var caps QueueCapability
	if flags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 {
		caps |= QueueGraphics
	}
	if flags&vk.QueueFlags(vk.QueueComputeBit) != 0 {
		caps |= QueueCompute
	}
	if flags&vk.QueueFlags(vk.QueueTransferBit) != 0 {
		caps |= QueueTransfer
	}
	if flags&vk.QueueFlags(vk.QueueSparseBindingBit) != 0 {
		caps |= QueueSparseBinding
	}
	return caps
}

func safeString(s string) string {
	return fmt.Sprintf("%s\x00", s)
}

func safeStrings(sgs []string) []string {
	safe := []string{}
	for _, s := range sgs {
		safe = append(safe, safeString(s))
	}
	return safe
}
