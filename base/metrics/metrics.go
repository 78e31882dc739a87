package metrics

const (
	InferenceErrorsH   = "The total number of inference requests rejected with an error"
	InferenceErrorsN   = "fanctl_inference_errors"
	InferenceNoFireH   = "The total number of inferences in which no rule fired"
	InferenceNoFireN   = "fanctl_inference_no_fire"
	InferenceOutputH   = "The distribution of crisp inference outputs"
	InferenceOutputN   = "fanctl_inference_output"
	InferenceRequestsH = "The total number of inferences served"
	InferenceRequestsN = "fanctl_inference_requests"

	BatchSizeH = "The distribution of batch inference request sizes"
	BatchSizeN = "fanctl_batch_size"
)
