package vkg

import (
	"errors"

	vk "github.com/vulkan-go/vulkan"

	"github.com/kaon3d/kaon/gpu"
)

// createCompatRenderPass builds a single-subpass render pass for the
// given attachment formats. Layout choices do not affect render pass
// compatibility, so the same formats yield interchangeable passes for
// pipelines and recorded passes.
func createCompatRenderPass(d *device, colorFormat, depthFormat gpu.TextureFormat, presentFinal bool) (vk.RenderPass, error) {
	finalLayout := vk.ImageLayoutColorAttachmentOptimal
	if presentFinal {
		finalLayout = vk.ImageLayoutPresentSrc
	}

	attachments := []vk.AttachmentDescription{{
		Format:         vkFormat(colorFormat),
		Samples:        vk.SampleCount1Bit,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        vk.AttachmentStoreOpStore,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    finalLayout,
	}}

	colorRef := []vk.AttachmentReference{{
		Attachment: 0,
		Layout:     vk.ImageLayoutColorAttachmentOptimal,
	}}

	subpass := vk.SubpassDescription{
		PipelineBindPoint:    vk.PipelineBindPointGraphics,
		ColorAttachmentCount: uint32(len(colorRef)),
		PColorAttachments:    colorRef,
	}

	if depthFormat != gpu.TextureFormatInvalid {
		attachments = append(attachments, vk.AttachmentDescription{
			Format:         vkFormat(depthFormat),
			Samples:        vk.SampleCount1Bit,
			LoadOp:         vk.AttachmentLoadOpClear,
			StoreOp:        vk.AttachmentStoreOpDontCare,
			StencilLoadOp:  vk.AttachmentLoadOpDontCare,
			StencilStoreOp: vk.AttachmentStoreOpDontCare,
			InitialLayout:  vk.ImageLayoutUndefined,
			FinalLayout:    vk.ImageLayoutDepthStencilAttachmentOptimal,
		})
		subpass.PDepthStencilAttachment = &vk.AttachmentReference{
			Attachment: 1,
			Layout:     vk.ImageLayoutDepthStencilAttachmentOptimal,
		}
	}

	dependency := vk.SubpassDependency{
		SrcSubpass:    vk.SubpassExternal,
		DstSubpass:    0,
		SrcStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		SrcAccessMask: 0,
		DstStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		DstAccessMask: vk.AccessFlags(vk.AccessColorAttachmentReadBit | vk.AccessColorAttachmentWriteBit),
	}

	rpci := vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		SubpassCount:    1,
		PSubpasses:      []vk.SubpassDescription{subpass},
		DependencyCount: 1,
		PDependencies:   []vk.SubpassDependency{dependency},
	}

	var renderPass vk.RenderPass
	if err := vk.Error(vk.CreateRenderPass(d.logical, &rpci, nil, &renderPass)); err != nil {
		return nil, errors.New("vk.CreateRenderPass(): " + err.Error())
	}
	return renderPass, nil
}

// CreateRenderPipeline compiles a graphics pipeline with viewport and
// scissor left dynamic, so one pipeline serves any surface size.
func (d *device) CreateRenderPipeline(desc gpu.RenderPipelineDescriptor, vertex, fragment gpu.DriverShaderModule) (gpu.DriverRenderPipeline, error) {
	vertexModule, ok := vertex.(*shaderModule)
	if !ok {
		return nil, errors.New("vkg: foreign vertex shader module")
	}
	fragmentModule, ok := fragment.(*shaderModule)
	if !ok {
		return nil, errors.New("vkg: foreign fragment shader module")
	}

	renderPass, err := createCompatRenderPass(d, desc.ColorFormat, desc.DepthFormat, false)
	if err != nil {
		return nil, err
	}

	plci := vk.PipelineLayoutCreateInfo{
		SType: vk.StructureTypePipelineLayoutCreateInfo,
	}
	var layout vk.PipelineLayout
	if err := vk.Error(vk.CreatePipelineLayout(d.logical, &plci, nil, &layout)); err != nil {
		vk.DestroyRenderPass(d.logical, renderPass, nil)
		return nil, errors.New("vk.CreatePipelineLayout(): " + err.Error())
	}

	stages := []vk.PipelineShaderStageCreateInfo{{
		SType:  vk.StructureTypePipelineShaderStageCreateInfo,
		Stage:  vk.ShaderStageVertexBit,
		Module: vertexModule.raw,
		PName:  "main\x00",
	}, {
		SType:  vk.StructureTypePipelineShaderStageCreateInfo,
		Stage:  vk.ShaderStageFragmentBit,
		Module: fragmentModule.raw,
		PName:  "main\x00",
	}}

	var (
		bindings   []vk.VertexInputBindingDescription
		attributes []vk.VertexInputAttributeDescription
	)
	if len(desc.VertexLayout.Attributes) > 0 {
		bindings = append(bindings, vk.VertexInputBindingDescription{
			Binding:   0,
			Stride:    uint32(desc.VertexLayout.Stride),
			InputRate: vk.VertexInputRateVertex,
		})
		for _, attr := range desc.VertexLayout.Attributes {
			attributes = append(attributes, vk.VertexInputAttributeDescription{
				Location: attr.ShaderLocation,
				Binding:  0,
				Format:   vkVertexFormat(attr.Format),
				Offset:   uint32(attr.Offset),
			})
		}
	}

	depthEnabled := vk.Bool32(vk.False)
	if desc.DepthFormat != gpu.TextureFormatInvalid {
		depthEnabled = vk.True
	}

	gpci := []vk.GraphicsPipelineCreateInfo{{
		SType:      vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount: uint32(len(stages)),
		PStages:    stages,
		PVertexInputState: &vk.PipelineVertexInputStateCreateInfo{
			SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
			VertexBindingDescriptionCount:   uint32(len(bindings)),
			PVertexBindingDescriptions:      bindings,
			VertexAttributeDescriptionCount: uint32(len(attributes)),
			PVertexAttributeDescriptions:    attributes,
		},
		PInputAssemblyState: &vk.PipelineInputAssemblyStateCreateInfo{
			SType:    vk.StructureTypePipelineInputAssemblyStateCreateInfo,
			Topology: vkTopology(desc.Topology),
		},
		PViewportState: &vk.PipelineViewportStateCreateInfo{
			SType:         vk.StructureTypePipelineViewportStateCreateInfo,
			ViewportCount: 1,
			ScissorCount:  1,
		},
		PRasterizationState: &vk.PipelineRasterizationStateCreateInfo{
			SType:       vk.StructureTypePipelineRasterizationStateCreateInfo,
			PolygonMode: vk.PolygonModeFill,
			CullMode:    vkCullMode(desc.CullMode),
			FrontFace:   vk.FrontFaceCounterClockwise,
			LineWidth:   1.0,
		},
		PDepthStencilState: &vk.PipelineDepthStencilStateCreateInfo{
			SType:            vk.StructureTypePipelineDepthStencilStateCreateInfo,
			DepthTestEnable:  depthEnabled,
			DepthWriteEnable: depthEnabled,
			DepthCompareOp:   vk.CompareOpLessOrEqual,
			Back: vk.StencilOpState{
				FailOp:    vk.StencilOpKeep,
				PassOp:    vk.StencilOpKeep,
				CompareOp: vk.CompareOpAlways,
			},
			Front: vk.StencilOpState{
				FailOp:    vk.StencilOpKeep,
				PassOp:    vk.StencilOpKeep,
				CompareOp: vk.CompareOpAlways,
			},
		},
		PMultisampleState: &vk.PipelineMultisampleStateCreateInfo{
			SType:                vk.StructureTypePipelineMultisampleStateCreateInfo,
			RasterizationSamples: vk.SampleCount1Bit,
		},
		PColorBlendState: &vk.PipelineColorBlendStateCreateInfo{
			SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
			AttachmentCount: 1,
			PAttachments: []vk.PipelineColorBlendAttachmentState{{
				ColorWriteMask: 0xF,
				BlendEnable:    vk.False,
			}},
		},
		PDynamicState: &vk.PipelineDynamicStateCreateInfo{
			SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
			DynamicStateCount: 2,
			PDynamicStates: []vk.DynamicState{
				vk.DynamicStateScissor,
				vk.DynamicStateViewport,
			},
		},
		Layout:     layout,
		RenderPass: renderPass,
	}}

	pipelines := make([]vk.Pipeline, len(gpci))
	if err := vk.Error(vk.CreateGraphicsPipelines(d.logical, nil, uint32(len(gpci)), gpci, nil, pipelines)); err != nil {
		vk.DestroyPipelineLayout(d.logical, layout, nil)
		vk.DestroyRenderPass(d.logical, renderPass, nil)
		return nil, errors.New("vk.CreateGraphicsPipelines(): " + err.Error())
	}

	return &pipeline{
		device:     d,
		raw:        pipelines[0],
		layout:     layout,
		renderPass: renderPass,
	}, nil
}

type pipeline struct {
	device     *device
	raw        vk.Pipeline
	layout     vk.PipelineLayout
	renderPass vk.RenderPass
}

func (p *pipeline) Destroy() {
	vk.DestroyPipeline(p.device.logical, p.raw, nil)
	vk.DestroyPipelineLayout(p.device.logical, p.layout, nil)
	vk.DestroyRenderPass(p.device.logical, p.renderPass, nil)
}
