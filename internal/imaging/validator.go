package imaging

import (
	"fmt"

	"gocv.io/x/gocv"
)

func validateMat(mat *gocv.Mat) error {
	if mat == nil {
		return fmt.Errorf("decoded image is nil")
	}

	if mat.Empty() {
		return fmt.Errorf("image could not be decoded")
	}

	if mat.Rows() <= 0 || mat.Cols() <= 0 {
		return fmt.Errorf("image has invalid dimensions %dx%d", mat.Cols(), mat.Rows())
	}

	return nil
}
