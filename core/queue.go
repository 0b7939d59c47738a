// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"github.com/devblok/vkboot/device"
	"github.com/pkg/errors"
)

// ScoreQueueFamily rates a queue family for graphics work. Graphics support
// earns three points per queue, compute and transfer support cost one point
// per queue each, so dedicated graphics families win over shared ones.
func ScoreQueueFamily(qf device.QueueFamily) int {
	count := int(qf.Count)
	var score int
	if qf.Supports(device.QueueGraphics) {
		score += 3 * count
	}
	if qf.Supports(device.QueueTransfer) {
		score -= count
	}
	if qf.Supports(device.QueueCompute) {
		score -= count
	}
	return score
}

// BestGraphicsFamilyIndex returns the index of the highest scoring queue
// family, the earliest one on ties. The winner may score below zero when
// no family is dedicated to graphics.
func (pd *PhysicalDevice) BestGraphicsFamilyIndex() (uint32, error) {
	if len(pd.families) == 0 {
		return 0, errors.Wrapf(ErrNoQueueFamily, "vk.GetPhysicalDeviceQueueFamilyProperties(): %s", pd.Name())
	}

	best := pd.families[0]
	bestScore := ScoreQueueFamily(best)
	for _, qf := range pd.families[1:] {
		if score := ScoreQueueFamily(qf); score > bestScore {
			best, bestScore = qf, score
		}
	}
	return best.Index, nil
}
